package rcpsp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Serialization follows spec.md §6's fixed little-endian 32-bit word
// layout exactly. encoding/binary is the right tool here: the spec
// pins down an exact wire format rather than a general-purpose
// serialization need a pack library would help with (see DESIGN.md).

// WriteResult writes inst and the solved schedule to w in the order
// spec.md §6 specifies: A, R; dur; cap; req (row-major); nSucc then
// succ lists; nPred then pred lists; scheduleLength; orderByStartTime;
// startTimeById.
func WriteResult(w io.Writer, inst *Instance, scheduleLength int, startTimeByID []int) error {
	words := make([]uint32, 0, 2+inst.A+inst.R+inst.A*inst.R+2*inst.A+1+2*inst.A)

	put := func(v int) { words = append(words, uint32(v)) }

	put(inst.A)
	put(inst.R)
	for _, d := range inst.Dur {
		put(d)
	}
	for _, c := range inst.Cap {
		put(c)
	}
	for a := 0; a < inst.A; a++ {
		for _, r := range inst.Req[a] {
			put(r)
		}
	}
	for a := 0; a < inst.A; a++ {
		put(len(inst.Succ[a]))
	}
	for a := 0; a < inst.A; a++ {
		for _, s := range inst.Succ[a] {
			put(s)
		}
	}
	for a := 0; a < inst.A; a++ {
		put(len(inst.Pred[a]))
	}
	for a := 0; a < inst.A; a++ {
		for _, p := range inst.Pred[a] {
			put(p)
		}
	}
	put(scheduleLength)
	for _, a := range orderByStartTime(startTimeByID) {
		put(a)
	}
	for _, t := range startTimeByID {
		put(t)
	}

	for _, word := range words {
		if err := binary.Write(w, binary.LittleEndian, word); err != nil {
			return fmt.Errorf("%w: writing word: %v", ErrIOError, err)
		}
	}
	return nil
}

// orderByStartTime returns activity ids sorted ascending by start
// time, ties broken by ascending id (stable sort over identity order).
func orderByStartTime(startTimeByID []int) []int {
	order := make([]int, len(startTimeByID))
	for i := range order {
		order[i] = i
	}
	insertionSortByKey(order, func(a int) int { return startTimeByID[a] })
	return order
}

// ReadResult reads back the layout WriteResult produced. It reads A and
// R from the first two words and sizes every following array from
// them.
func ReadResult(r io.Reader) (dur, cap []int, req [][]int, succ, pred [][]int, scheduleLength int, orderByStart, startTimeByID []int, err error) {
	readWord := func() (int, error) {
		var v uint32
		if e := binary.Read(r, binary.LittleEndian, &v); e != nil {
			return 0, fmt.Errorf("%w: reading word: %v", ErrIOError, e)
		}
		return int(v), nil
	}

	a, err := readWord()
	if err != nil {
		return
	}
	rr, err := readWord()
	if err != nil {
		return
	}

	dur = make([]int, a)
	for i := range dur {
		if dur[i], err = readWord(); err != nil {
			return
		}
	}
	cap = make([]int, rr)
	for i := range cap {
		if cap[i], err = readWord(); err != nil {
			return
		}
	}
	req = make([][]int, a)
	for i := range req {
		req[i] = make([]int, rr)
		for k := range req[i] {
			if req[i][k], err = readWord(); err != nil {
				return
			}
		}
	}

	nSucc := make([]int, a)
	for i := range nSucc {
		if nSucc[i], err = readWord(); err != nil {
			return
		}
	}
	succ = make([][]int, a)
	for i := range succ {
		succ[i] = make([]int, nSucc[i])
		for k := range succ[i] {
			if succ[i][k], err = readWord(); err != nil {
				return
			}
		}
	}

	nPred := make([]int, a)
	for i := range nPred {
		if nPred[i], err = readWord(); err != nil {
			return
		}
	}
	pred = make([][]int, a)
	for i := range pred {
		pred[i] = make([]int, nPred[i])
		for k := range pred[i] {
			if pred[i][k], err = readWord(); err != nil {
				return
			}
		}
	}

	if scheduleLength, err = readWord(); err != nil {
		return
	}
	orderByStart = make([]int, a)
	for i := range orderByStart {
		if orderByStart[i], err = readWord(); err != nil {
			return
		}
	}
	startTimeByID = make([]int, a)
	for i := range startTimeByID {
		if startTimeByID[i], err = readWord(); err != nil {
			return
		}
	}
	return
}
