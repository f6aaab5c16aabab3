// Entry point.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/BurntSushi/toml"
	ws "nhooyr.io/websocket"

	"chessd/internal/conf"
	"chessd/internal/friends"
	"chessd/internal/session"
	"chessd/internal/transport"
	"chessd/internal/users"
)

const defaultConfName = "chessd.toml"

var debug = log.New(io.Discard, "[debug] ", log.Ltime|log.Lshortfile|log.Lmicroseconds)

func main() {
	confFile := flag.String("conf", defaultConfName, "path to configuration file")
	dumpConf := flag.Bool("dump-config", false, "print the default configuration and exit")
	flag.Parse()

	if *dumpConf {
		enc := toml.NewEncoder(os.Stdout)
		if err := enc.Encode(conf.Default()); err != nil {
			log.Fatal("failed to encode default configuration")
		}
		os.Exit(0)
	}

	c := conf.Default()
	if loaded, err := conf.Load(*confFile); err == nil {
		c = loaded
	} else if !os.IsNotExist(err) || *confFile != defaultConfName {
		log.Fatal(err)
	}

	if c.Log.Debug {
		debug.SetOutput(os.Stderr)
	}

	userStore, err := users.OpenSQLite(c.Database.File)
	if err != nil {
		log.Fatalf("opening user store: %v", err)
	}
	defer userStore.Close()

	friendStore := friends.NewMemoryStore()

	logger := log.New(os.Stderr, "", log.Ltime)
	orch := session.New(userStore, friendStore, c.ForfeitWindow(), int(c.Game.MaxChatMessageLength), logger, debug)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Upgrade(w, r, &ws.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			debug.Printf("upgrade failed: %v", err)
			return
		}
		logger.Printf("new connection from %s", conn.RemoteAddr())
		orch.HandleConnection(conn)
	})

	addr := fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
	logger.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
