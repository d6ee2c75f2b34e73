// Command netsniff reads the syscall gateway's function-call log for
// diagnostics, polling a running telnet server's /calls.json endpoint the
// way perkeep's pkg/server status handler publishes recent state over
// HTTP rather than requiring a shared process. Grounded on
// programs/netsniff.c's role as a traffic-inspection tool, reinterpreted
// here against the syscall gateway's call log since this kernel core has
// no network stack to sniff.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type callLogEntry struct {
	FunctionNumber int    `json:"functionNumber"`
	Privilege      int    `json:"privilege"`
	Err            string `json:"err,omitempty"`
}

func fetchCallLog(url string) ([]callLogEntry, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("netsniff: %s: status %d", url, resp.StatusCode)
	}
	var entries []callLogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func printCallLog(entries []callLogEntry) {
	for _, e := range entries {
		if e.Err != "" {
			fmt.Printf("fn=%d priv=%d err=%s\n", e.FunctionNumber, e.Privilege, e.Err)
			continue
		}
		fmt.Printf("fn=%d priv=%d ok\n", e.FunctionNumber, e.Privilege)
	}
}

func main() {
	addr := flag.String("addr", "localhost:2323", "telnet server address to poll")
	follow := flag.Bool("f", false, "keep polling and print only newly seen calls")
	interval := flag.Duration("interval", time.Second, "poll interval when -f is set")
	flag.Parse()

	url := fmt.Sprintf("http://%s/calls.json", *addr)

	if !*follow {
		entries, err := fetchCallLog(url)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printCallLog(entries)
		return
	}

	seen := 0
	for {
		entries, err := fetchCallLog(url)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if seen > len(entries) {
			// the gateway's log wrapped past maxCallLog and dropped
			// entries we already printed; resync from the start.
			seen = 0
		}
		printCallLog(entries[seen:])
		seen = len(entries)
		time.Sleep(*interval)
	}
}
