// Test server for exercising the plugin by hand.
// Run: go run scripts/fake_jolokia.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
)

const heapMax = 4096

var reads atomic.Int64

// heapUsed walks a sawtooth through the heap so watch mode sees OK,
// WARNING and CRITICAL bands with thresholds like --warning 2500
// --critical 3500.
func heapUsed() int64 {
	return (reads.Add(1) * 256) % heapMax
}

func beanValue(bean string) (any, bool) {
	switch bean {
	case "java.lang:type=Memory":
		return map[string]any{
			"HeapMemoryUsage":    map[string]any{"init": 256, "used": heapUsed(), "committed": heapMax, "max": heapMax},
			"NonHeapMemoryUsage": map[string]any{"init": 64, "used": 310, "committed": 512, "max": 1024},
		}, true
	case "java.lang:type=Threading":
		return map[string]any{"ThreadCount": 42, "PeakThreadCount": 57, "DaemonThreadCount": 31}, true
	case "kafka.server:type=BrokerTopicMetrics,name=MessagesInPerSec":
		return map[string]any{"Count": 15683, "OneMinuteRate": 104.7}, true
	}
	return nil, false
}

func listTree() map[string]any {
	attrs := func(names ...string) map[string]any {
		m := map[string]any{}
		for _, n := range names {
			m[n] = map[string]any{"type": "java.lang.Object", "rw": false}
		}
		return map[string]any{"attr": m}
	}
	return map[string]any{
		"java.lang": map[string]any{
			"type=Memory":    attrs("HeapMemoryUsage", "NonHeapMemoryUsage"),
			"type=Threading": attrs("ThreadCount", "PeakThreadCount", "DaemonThreadCount"),
		},
		"kafka.server": map[string]any{
			"type=BrokerTopicMetrics,name=MessagesInPerSec": attrs("Count", "OneMinuteRate"),
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode: %v", err)
	}
}

func main() {
	http.HandleFunc("/jolokia/read/", func(w http.ResponseWriter, r *http.Request) {
		bean := strings.TrimPrefix(r.URL.Path, "/jolokia/read/")
		value, ok := beanValue(bean)
		if !ok {
			// Real bridges report lookup failures inside a 200 envelope.
			writeJSON(w, map[string]any{
				"status": 404,
				"error":  fmt.Sprintf("javax.management.InstanceNotFoundException : %s", bean),
			})
			return
		}
		writeJSON(w, map[string]any{
			"status":  200,
			"request": map[string]any{"type": "read", "mbean": bean},
			"value":   value,
		})
	})

	http.HandleFunc("/jolokia/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":  200,
			"request": map[string]any{"type": "list"},
			"value":   listTree(),
		})
	})

	fmt.Println("Fake Jolokia bridge on http://localhost:8778/jolokia")
	fmt.Println("Try: beancheck check --mbean java.lang:type=Memory --mbean-attribute HeapMemoryUsage --mbean-key used --warning 2500 --critical 3500")
	log.Fatal(http.ListenAndServe(":8778", nil))
}
