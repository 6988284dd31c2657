package btree

import (
	"bytes"
	"strings"
)

// CompareFunc orders two raw key byte-slices. It returns <0, 0, or >0
// exactly as bytes.Compare / strings.Compare do. The four
// instantiations below cover every key family a B-tree engine needs:
// classic-HFS MacRoman case-folding, HFS+ Unicode case-folding, HFSX
// binary, and the shared lexicographic compare used by Extents and
// Attributes.
type CompareFunc func(a, b []byte) int

// CompareExtentsOrAttributes orders Extents and Attributes B-tree keys
// by plain lexicographic byte order.
func CompareExtentsOrAttributes(a, b []byte) int {
	return bytes.Compare(a, b)
}

// CompareCatalogHFSX orders HFSX catalog keys by case-sensitive binary
// comparison of the decoded name, after ordering by parentID.
func CompareCatalogHFSX(a, b []byte) int {
	return compareCatalogKeys(a, b, strings.Compare)
}

// CompareCatalogHFSPlus orders HFS+ catalog keys by case-folding
// Unicode comparison of the decoded name, after ordering by parentID.
func CompareCatalogHFSPlus(a, b []byte) int {
	return compareCatalogKeys(a, b, func(x, y string) int {
		return strings.Compare(strings.ToLower(x), strings.ToLower(y))
	})
}

// CompareCatalogHFS orders classic-HFS catalog keys by case-folding
// MacRoman comparison of the decoded name, after ordering by parentID.
// Classic HFS lays its catalog key out as {keyLength:1, reserved:1,
// parentID:4, nodeName:Str31}, not the HFS+ {keyLength:2, parentID:4,
// nodeName:UniStr255} layout, so it decodes with DecodeCatalogKeyHFS
// rather than DecodeCatalogKey.
func CompareCatalogHFS(a, b []byte) int {
	keyA, err := DecodeCatalogKeyHFS(a)
	if err != nil {
		return bytes.Compare(a, b)
	}

	keyB, err := DecodeCatalogKeyHFS(b)
	if err != nil {
		return bytes.Compare(a, b)
	}

	if keyA.ParentID != keyB.ParentID {
		if keyA.ParentID < keyB.ParentID {
			return -1
		}

		return 1
	}

	return strings.Compare(strings.ToLower(keyA.NodeName), strings.ToLower(keyB.NodeName))
}

// compareCatalogKeys decodes the {parentID, nodeName} prefix each raw
// HFS+-family catalog key begins with and orders first by parentID,
// then by name under nameCompare.
func compareCatalogKeys(a, b []byte, nameCompare func(x, y string) int) int {
	keyA, err := DecodeCatalogKey(a)
	if err != nil {
		return bytes.Compare(a, b)
	}

	keyB, err := DecodeCatalogKey(b)
	if err != nil {
		return bytes.Compare(a, b)
	}

	if keyA.ParentID != keyB.ParentID {
		if keyA.ParentID < keyB.ParentID {
			return -1
		}

		return 1
	}

	return nameCompare(keyA.NodeName, keyB.NodeName)
}
