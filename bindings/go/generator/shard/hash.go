// Package shard partitions generated component and enum definitions into a
// bounded number of shard documents addressed by a stable hash.
package shard

import (
	"fmt"
	"unicode/utf16"
)

// Buckets is the number of component shards and, independently, enum shards.
const Buckets = 256

const (
	IndexFile      = "index.schema.json"
	AssignmentFile = "shards.json"
)

// Bucket is the sum of the UTF-16 code units of s modulo Buckets.
func Bucket(s string) int {
	sum := 0
	for _, unit := range utf16.Encode([]rune(s)) {
		sum += int(unit)
	}
	return sum % Buckets
}

// ComponentFile is the name of the component shard of bucket b.
func ComponentFile(b int) string {
	return fmt.Sprintf("components_%03d.schema.json", b)
}

// EnumFile is the name of the enum shard of bucket b.
func EnumFile(b int) string {
	return fmt.Sprintf("enums_%03d.schema.json", b)
}
