package engine

import (
	"unsafe"

	"github.com/tomgun/saktris-game-sub001/board"
)

const (
	alphaFlag = iota
	betaFlag
	exactFlag

	// In MB
	ttSize      = 64
	clusterSize = 4

	unusableScore int32 = -32750
)

// transTable is a fixed-size clustered transposition table. Keys mix the
// board hash with the arrival counters, so two nodes with identical boards
// but different reserve state never alias.
type transTable struct {
	isInitialized bool
	entries       []ttEntry
	clusterCount  uint64
}

type ttEntry struct {
	hash  uint64
	move  board.Move
	score int32
	depth int8
	flag  int8
}

func (tt *transTable) clear() {
	tt.entries = nil
	tt.isInitialized = false
	tt.clusterCount = 0
}

func (tt *transTable) init() {
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	totalBytes := uint64(ttSize) * 1024 * 1024
	clusterBytes := entrySize * clusterSize
	clusterCount := totalBytes / clusterBytes
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]ttEntry, tt.clusterCount*clusterSize)
	tt.isInitialized = true
}

// useEntry probes for a score usable at this depth and window. Mate scores
// are stored ply-independent and re-normalized on the way out.
func (tt *transTable) useEntry(entry *ttEntry, hash uint64, depth int8, alpha, beta int32, ply int8) (bool, int32) {
	if entry == nil || entry.hash != hash || entry.depth < depth {
		return false, unusableScore
	}
	norm := entry.score
	if norm > Checkmate {
		norm -= int32(ply)
	} else if norm < -Checkmate {
		norm += int32(ply)
	}
	switch entry.flag {
	case exactFlag:
		return true, norm
	case alphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case betaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, unusableScore
}

func (tt *transTable) getEntry(hash uint64) (*ttEntry, bool) {
	if tt.clusterCount == 0 {
		return nil, false
	}
	base := int((hash % tt.clusterCount) * clusterSize)
	for i := 0; i < clusterSize; i++ {
		next := &tt.entries[base+i]
		if next.hash == hash {
			return next, true
		}
	}
	return nil, false
}

// storeEntry updates in place, then fills an empty slot, then replaces the
// shallowest entry in the cluster.
func (tt *transTable) storeEntry(hash uint64, depth, ply int8, move board.Move, score int32, flag int8) {
	if tt.clusterCount == 0 {
		return
	}
	base := int((hash % tt.clusterCount) * clusterSize)

	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}

	targetIdx := -1
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].hash == hash {
			targetIdx = base + i
			break
		}
	}
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].hash == 0 {
				targetIdx = base + i
				break
			}
		}
	}
	if targetIdx == -1 {
		targetIdx = base
		minDepth := tt.entries[base].depth
		for i := 1; i < clusterSize; i++ {
			if tt.entries[base+i].depth < minDepth {
				minDepth = tt.entries[base+i].depth
				targetIdx = base + i
			}
		}
	}

	entry := &tt.entries[targetIdx]
	entry.hash = hash
	entry.depth = depth
	entry.move = move
	entry.flag = flag
	entry.score = score
}
