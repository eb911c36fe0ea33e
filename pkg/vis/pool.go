package vis

// DefaultPoolBlockSize is the number of primitives allocated per pool block.
const DefaultPoolBlockSize = 256

// primitivePool hands out Primitives from fixed-size blocks so pointers stay
// stable while the pool grows. Freed slots go on a free list.
type primitivePool struct {
	blockSize int
	blocks    [][]Primitive
	freeList  []int32
	next      int32
	live      int
}

func newPrimitivePool(blockSize int) *primitivePool {
	if blockSize <= 0 {
		blockSize = DefaultPoolBlockSize
	}
	return &primitivePool{
		blockSize: blockSize,
		freeList:  make([]int32, 0, blockSize),
	}
}

func (pl *primitivePool) get() *Primitive {
	var id int32
	if n := len(pl.freeList); n > 0 {
		id = pl.freeList[n-1]
		pl.freeList = pl.freeList[:n-1]
	} else {
		id = pl.next
		pl.next++
		if int(id) >= len(pl.blocks)*pl.blockSize {
			pl.blocks = append(pl.blocks, make([]Primitive, pl.blockSize))
		}
	}

	p := pl.at(id)
	links := p.links[:0]
	*p = Primitive{id: id, state: primAllocated, links: links, index: -1}
	pl.live++
	return p
}

func (pl *primitivePool) put(p *Primitive) {
	if !pl.owns(p) {
		panic("vis: primitive does not belong to this pool")
	}
	if p.state == primFree {
		panic("vis: primitive returned to pool twice")
	}
	links := p.links[:0]
	*p = Primitive{id: p.id, state: primFree, links: links, index: -1}
	pl.freeList = append(pl.freeList, p.id)
	pl.live--
}

func (pl *primitivePool) at(id int32) *Primitive {
	return &pl.blocks[int(id)/pl.blockSize][int(id)%pl.blockSize]
}

// capacity is one past the highest id ever handed out.
func (pl *primitivePool) capacity() int {
	return int(pl.next)
}

func (pl *primitivePool) owns(p *Primitive) bool {
	if p == nil || p.id < 0 || p.id >= pl.next {
		return false
	}
	return pl.at(p.id) == p
}
