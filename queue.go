package drbg

// byteQueue is an ordered sequence of byte ranges that is fed to the
// digest in insertion order. Records alias the caller's memory - the
// caller must keep them alive until the queue has been drained.
type byteQueue struct {
	recs [][]byte
	pos  int
}

// push appends a record at the tail. Zero length records are dropped.
func (q *byteQueue) push(b []byte) {
	if len(b) == 0 {
		return
	}
	q.recs = append(q.recs, b)
}

// insert pushes a record at the head, in front of any earlier inserts.
func (q *byteQueue) insert(b []byte) {
	if len(b) == 0 {
		return
	}
	q.recs = append(q.recs, nil)
	copy(q.recs[1:], q.recs)
	q.recs[0] = b
}

// reset rewinds the enumeration cursor to the head.
func (q *byteQueue) reset() {
	q.pos = 0
}

// next returns the record at the cursor, or nil once the queue is
// drained.
func (q *byteQueue) next() []byte {
	if q.pos >= len(q.recs) {
		return nil
	}
	b := q.recs[q.pos]
	q.pos++
	return b
}

// total returns the number of bytes not yet enumerated.
func (q *byteQueue) total() (n int) {
	for _, b := range q.recs[q.pos:] {
		n += len(b)
	}
	return
}
