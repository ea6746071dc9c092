package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrSchema marks responses that parsed as JSON but do not match the
// expected GraphQL shape: missing data.nodes, GraphQL-level errors, or
// resource counters that are not non-negative integers.
var ErrSchema = errors.New("schema mismatch")

// Node is one node entry from the grid GraphQL API.
type Node struct {
	NodeID         uint64    `json:"nodeID"`
	FarmID         uint64    `json:"farmID"`
	Created        int64     `json:"created"`
	ResourcesTotal Resources `json:"resourcesTotal"`
}

// UnmarshalJSON decodes a node entry. Every field must be present and
// non-null; an absent field would otherwise decode to a zero value and
// skew the report (a zero created timestamp qualifies for every month).
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		NodeID         *uint64    `json:"nodeID"`
		FarmID         *uint64    `json:"farmID"`
		Created        *int64     `json:"created"`
		ResourcesTotal *Resources `json:"resourcesTotal"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.NodeID == nil {
		return fmt.Errorf("%w: node entry missing nodeID", ErrSchema)
	}
	if raw.FarmID == nil {
		return fmt.Errorf("%w: node %d missing farmID", ErrSchema, *raw.NodeID)
	}
	if raw.Created == nil {
		return fmt.Errorf("%w: node %d missing created", ErrSchema, *raw.NodeID)
	}
	if raw.ResourcesTotal == nil {
		return fmt.Errorf("%w: node %d missing resourcesTotal", ErrSchema, *raw.NodeID)
	}

	n.NodeID = *raw.NodeID
	n.FarmID = *raw.FarmID
	n.Created = *raw.Created
	n.ResourcesTotal = *raw.ResourcesTotal
	return nil
}

// Resources holds the declared capacity totals of a node.
type Resources struct {
	CRU Capacity `json:"cru"`
	MRU Capacity `json:"mru"`
	SRU Capacity `json:"sru"`
	HRU Capacity `json:"hru"`
}

// UnmarshalJSON decodes capacity totals, requiring all four counters.
func (r *Resources) UnmarshalJSON(data []byte) error {
	var raw struct {
		CRU *Capacity `json:"cru"`
		MRU *Capacity `json:"mru"`
		SRU *Capacity `json:"sru"`
		HRU *Capacity `json:"hru"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.CRU == nil || raw.MRU == nil || raw.SRU == nil || raw.HRU == nil {
		return fmt.Errorf("%w: resourcesTotal missing a capacity counter", ErrSchema)
	}

	r.CRU = *raw.CRU
	r.MRU = *raw.MRU
	r.SRU = *raw.SRU
	r.HRU = *raw.HRU
	return nil
}

// Capacity is a non-negative resource counter. The GraphQL schema models
// these as BigInt, so the wire value may be either a JSON number or a
// decimal string; both collapse to uint64 here.
type Capacity uint64

func (c *Capacity) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("%w: invalid capacity string %s", ErrSchema, s)
		}
		s = unquoted
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: capacity %s is not a non-negative integer", ErrSchema, string(data))
	}
	*c = Capacity(v)
	return nil
}

type graphQLRequest struct {
	OperationName string `json:"operationName"`
	Query         string `json:"query"`
	Variables     any    `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type nodesResponse struct {
	Data *struct {
		Nodes []Node `json:"nodes"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}
