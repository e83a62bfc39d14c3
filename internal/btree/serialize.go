package btree

import "encoding/json"

// snapshotNode and snapshot are the JSON-encodable structural form of a
// Tree, per spec §4.2's serialize/deserialize contract: (config, rootId,
// nodes[]).
type snapshotNode struct {
	ID       uint64       `json:"id"`
	IsLeaf   bool         `json:"isLeaf"`
	Entries  []IndexEntry `json:"entries"`
	Children []uint64     `json:"children,omitempty"`
	ParentID uint64       `json:"parentId"`
}

type snapshot struct {
	Config Config         `json:"config"`
	RootID uint64         `json:"rootId"`
	Nodes  []snapshotNode `json:"nodes"`
}

// Serialize produces a structural snapshot of the tree.
func (t *Tree) Serialize() ([]byte, error) {
	s := snapshot{Config: t.config, RootID: t.rootID}
	for id, n := range t.arena {
		s.Nodes = append(s.Nodes, snapshotNode{
			ID:       id,
			IsLeaf:   n.isLeaf,
			Entries:  n.entries,
			Children: n.children,
			ParentID: n.parentID,
		})
	}
	return json.Marshal(s)
}

// Deserialize rebuilds a Tree from a snapshot produced by Serialize.
// entryCount is recomputed as the sum of leaf entries only (spec §9's
// pinned open-question decision — internal separators are not
// double-counted).
func Deserialize(blob []byte) (*Tree, error) {
	var s snapshot
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, err
	}
	t := &Tree{
		config: s.Config,
		arena:  make(map[uint64]*node),
		rootID: s.RootID,
	}
	var maxID uint64
	var leafEntries uint64
	for _, sn := range s.Nodes {
		n := &node{
			id:       sn.ID,
			isLeaf:   sn.IsLeaf,
			entries:  sn.Entries,
			children: sn.Children,
			parentID: sn.ParentID,
		}
		t.arena[sn.ID] = n
		if sn.ID >= maxID {
			maxID = sn.ID
		}
		if sn.IsLeaf {
			leafEntries += uint64(len(sn.Entries))
		}
	}
	t.nextNodeID = maxID + 1
	t.entryCount = leafEntries
	return t, nil
}
