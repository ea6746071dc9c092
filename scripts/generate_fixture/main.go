// Command generate_fixture emits a synthetic GraphQL node-snapshot response
// on stdout, suitable for serving from a local stub while exercising the
// reporter by hand:
//
//	go run ./scripts/generate_fixture > nodes.json
//	GRAPHQL_URL=http://localhost:9000/graphql go run ./cmd/report
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"
)

type resources struct {
	CRU uint64 `json:"cru"`
	MRU uint64 `json:"mru"`
	// SRU and HRU are emitted as strings to mimic the BigInt encoding of
	// the real endpoint.
	SRU string `json:"sru"`
	HRU string `json:"hru"`
}

type node struct {
	NodeID         uint64    `json:"nodeID"`
	FarmID         uint64    `json:"farmID"`
	Created        int64     `json:"created"`
	ResourcesTotal resources `json:"resourcesTotal"`
}

func main() {
	const nodeCount = 50
	const farmCount = 12

	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := int64(30 * 30 * 24 * 60 * 60) // creation times spread over ~30 months

	nodes := make([]node, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		cores := uint64(4 + rand.Intn(61))
		nodes = append(nodes, node{
			NodeID:  uint64(i + 1),
			FarmID:  uint64(rand.Intn(farmCount) + 1),
			Created: start.Unix() + rand.Int63n(span),
			ResourcesTotal: resources{
				CRU: cores,
				MRU: cores * 4 * 1024 * 1024 * 1024,
				SRU: fmt.Sprint(uint64(rand.Intn(4)+1) * 512 * 1000 * 1000 * 1000),
				HRU: fmt.Sprint(uint64(rand.Intn(8)+1) * 2000 * 1000 * 1000 * 1000),
			},
		})
	}

	doc := map[string]any{
		"data": map[string]any{
			"nodes": nodes,
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode fixture: %v\n", err)
		os.Exit(1)
	}
}
