package btree

import (
	"github.com/jotarandom/go-hfsutils/volume"
)

// Record is one decoded leaf record: its raw key bytes (including the
// leading keyLength field) and its data bytes.
type Record struct {
	NodeIndex uint32
	Key       []byte
	Data      []byte
}

// splitKeyAndData separates a packed (key, data) record using the
// leading 2-byte keyLength field every HFS+ key family shares.
func splitKeyAndData(rec []byte) ([]byte, []byte, error) {
	if len(rec) < 2 {
		return nil, nil, volumeMalformed("record shorter than a key-length field")
	}

	keyLength := int(rec[0])<<8 | int(rec[1])
	total := 2 + keyLength

	if total > len(rec) {
		return nil, nil, volumeMalformed("record key length exceeds record size")
	}

	return rec[:total], rec[total:], nil
}

func volumeMalformed(msg string) error {
	return &malformedError{msg: msg}
}

type malformedError struct{ msg string }

func (e *malformedError) Error() string { return "btree: " + e.msg }

// Traverse walks the leaf chain starting at header.FirstLeafNode via
// fLink, stopping when fLink == 0. It detects cycles
// by bounding the walk to header.TotalNodes steps and verifies that
// keys are strictly increasing under compare. Faults are recorded on
// fs rather than aborting: a cyclic or corrupt tree stops traversal
// early and reports what it found so far.
func Traverse(a *Accessor, header BTHeaderRec, compare CompareFunc, fs *volume.Findings) ([]Record, error) {
	var records []Record

	if header.TotalNodes == 0 || header.LeafRecords == 0 {
		return records, nil
	}

	visited := make(map[uint32]bool, header.TotalNodes)
	idx := header.FirstLeafNode
	var prevKey []byte
	steps := uint32(0)

	for {
		if steps > header.TotalNodes {
			fs.Critical("btree", "leaf chain exceeds %d nodes without terminating: cyclic tree", header.TotalNodes)
			return records, nil
		}

		if visited[idx] {
			fs.Critical("btree", "leaf chain revisits node %d: cyclic tree", idx)
			return records, nil
		}

		visited[idx] = true
		steps++

		node, err := a.GetNode(idx)
		if err != nil {
			return records, err
		}

		if node.Descriptor.Kind != KindLeaf {
			fs.Critical("btree", "node %d in the leaf chain has kind %s, expected leaf", idx, node.Descriptor.Kind)
			return records, nil
		}

		for _, rec := range node.Records {
			key, data, err := splitKeyAndData(rec)
			if err != nil {
				fs.Critical("btree", "node %d: %v", idx, err)
				continue
			}

			if prevKey != nil {
				cmp := compare(prevKey, key)
				if cmp == 0 {
					fs.Critical("btree", "node %d: duplicate key, keys out of order", idx)
				} else if cmp > 0 {
					fs.Critical("btree", "node %d: keys out of order", idx)
				}
			}

			prevKey = key
			records = append(records, Record{NodeIndex: idx, Key: key, Data: data})
		}

		if node.Descriptor.FLink == 0 {
			if idx != header.LastLeafNode {
				fs.Add(volume.Finding{
					Severity: volume.Repairable,
					Field:    "lastLeafNode",
					Message:  "terminal leaf node does not match header's lastLeafNode",
				})
			}

			break
		}

		idx = node.Descriptor.FLink
	}

	if uint32(len(records)) != header.LeafRecords {
		fs.Add(volume.Finding{
			Severity: volume.Repairable,
			Field:    "leafRecords",
			Message:  "counted leaf records does not match header's leafRecords",
		})
	}

	return records, nil
}
