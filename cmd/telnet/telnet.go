// Command telnet drives the kernel's text console over a websocket
// transport, calling only the syscall gateway's console family
// (FnConsolePrint; FnConsoleInput is not used) the way the real telnet client only ever
// goes through the syscall API. Grounded on programs/libtelnet.c's role,
// narrowed to its syscall-gateway usage per the telnet/netsniff supplement.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"visopsys.dev/kernel/kernel/syscall"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Serve exposes gw's console family over a websocket at path: each text
// frame received is passed to FnConsolePrint at privilege 1, and a text
// frame "error: ..." is sent back only when that call fails; what
// ConsolePrint writes is not relayed to the socket.
func Serve(gw *syscall.Gateway, addr, path string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("telnet: upgrade: %v", err)
			return
		}
		defer conn.Close()
		handleSession(gw, conn)
	})
	mux.HandleFunc("/calls.json", func(w http.ResponseWriter, r *http.Request) {
		serveCallLog(w, gw)
	})
	log.Printf("telnet: listening on %s%s", addr, path)
	return http.ListenAndServe(addr, mux)
}

// callLogEntry is calls.json's wire shape: CallRecord's Err as a string
// since errors don't marshal on their own.
type callLogEntry struct {
	FunctionNumber int    `json:"functionNumber"`
	Privilege      int    `json:"privilege"`
	Err            string `json:"err,omitempty"`
}

func serveCallLog(w http.ResponseWriter, gw *syscall.Gateway) {
	log := gw.CallLog()
	entries := make([]callLogEntry, len(log))
	for i, rec := range log {
		entries[i] = callLogEntry{FunctionNumber: rec.FunctionNumber, Privilege: rec.Privilege}
		if rec.Err != nil {
			entries[i].Err = rec.Err.Error()
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func handleSession(gw *syscall.Gateway, conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if _, err := gw.ProcessCall([]interface{}{2, syscall.FnConsolePrint, string(msg)}, 1); err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error()))
			continue
		}
	}
}

// Dial connects to a telnet server and pipes stdin to the socket, printing
// whatever frames come back to stdout, until the connection closes.
func Dial(url string) error {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Println(string(msg))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := conn.WriteMessage(websocket.TextMessage, scanner.Bytes()); err != nil {
			return err
		}
	}
	<-done
	return nil
}

func main() {
	serve := flag.Bool("serve", false, "run as a console server instead of a client")
	addr := flag.String("addr", "localhost:2323", "address to listen on or connect to")
	path := flag.String("path", "/console", "websocket path")
	flag.Parse()

	if *serve {
		gw := syscall.NewGateway(syscall.NewDefaultTable(syscall.Handlers{
			ConsolePrint: func(s string) error { fmt.Print(s); return nil },
		}))
		if err := Serve(gw, *addr, *path); err != nil {
			log.Fatal(err)
		}
		return
	}

	url := fmt.Sprintf("ws://%s%s", *addr, *path)
	if err := Dial(url); err != nil {
		log.Fatal(err)
	}
}
