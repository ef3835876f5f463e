package graph

import "container/list"

// ProcessingQueue is a FIFO of table names used by the breadth-first walk.
type ProcessingQueue struct {
	queue *list.List
}

// NewProcessingQueue creates a new empty processing queue.
func NewProcessingQueue() *ProcessingQueue {
	return &ProcessingQueue{queue: list.New()}
}

// Enqueue adds a node to the back of the queue.
func (pq *ProcessingQueue) Enqueue(node string) {
	pq.queue.PushBack(node)
}

// Dequeue removes and returns the node at the front of the queue.
// Returns empty string and false if queue is empty.
func (pq *ProcessingQueue) Dequeue() (string, bool) {
	if pq.queue.Len() == 0 {
		return "", false
	}
	elem := pq.queue.Front()
	pq.queue.Remove(elem)
	return elem.Value.(string), true
}

// Len returns the number of nodes in the queue.
func (pq *ProcessingQueue) Len() int {
	return pq.queue.Len()
}

// IsEmpty returns true if the queue has no nodes.
func (pq *ProcessingQueue) IsEmpty() bool {
	return pq.queue.Len() == 0
}

// Neighborhood returns the tables reachable from start within depth hops,
// following edges in both directions, mapped to their hop distance. The
// start table itself is at distance 0. Unknown tables yield nil.
func (g *Graph) Neighborhood(start string, depth int) map[string]int {
	if !g.Has(start) {
		return nil
	}

	dist := map[string]int{g.Name(start): 0}
	seen := map[string]bool{key(start): true}

	pq := NewProcessingQueue()
	pq.Enqueue(g.Name(start))

	for !pq.IsEmpty() {
		current, _ := pq.Dequeue()
		d := dist[current]
		if d >= depth {
			continue
		}

		next := append(g.Children(current), g.Parents(current)...)
		for _, n := range next {
			if seen[key(n)] {
				continue
			}
			seen[key(n)] = true
			name := g.Name(n)
			dist[name] = d + 1
			pq.Enqueue(name)
		}
	}
	return dist
}
