// Package netserve is a thin, out-of-CORE TCP host over the database
// façade: one line in, one query.Result out, one goroutine per
// connection. Grounded on the teacher's internal/network/server.go.
package netserve

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/leengari/fltq/internal/database"
	"github.com/leengari/fltq/internal/replhost"
)

// Start listens on port and serves every connection against db until
// Start's listener fails to bind (returned as an error) or the caller
// kills the process.
func Start(port int, db *database.Database, log *slog.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("netserve: bind %s: %w", addr, err)
	}
	defer listener.Close()

	log.Info("listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error("accept failed", "error", err)
			continue
		}
		go handleConnection(conn, db, log)
	}
}

func handleConnection(conn net.Conn, db *database.Database, log *slog.Logger) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line == "exit" || line == "\\q" {
			return
		}

		result, err := db.Query(line)
		if err != nil {
			io.WriteString(conn, fmt.Sprintf("Error: %v\n", err))
			continue
		}
		replhost.PrintResult(conn, result)
	}

	if err := scanner.Err(); err != nil {
		log.Error("connection error", "remote_addr", conn.RemoteAddr(), "error", err)
	}
}
