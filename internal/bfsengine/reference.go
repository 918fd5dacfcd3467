package bfsengine

import "github.com/dd0wney/bfsengine/pkg/pools"

// SerialBFS is the single-threaded reference traversal every parallel
// variant is checked against. It operates directly on the CSR, not the
// merged layout, so it exercises none of the concurrency machinery and
// can serve as ground truth for it.
func SerialBFS(csr *CSR, source VId, distances []VId) {
	for i := range distances {
		distances[i] = Unreached
	}
	queue := pools.GetVIDs(csr.NumVertices())
	defer pools.PutVIDs(queue)
	queue = append(queue, uint32(source))
	distances[source] = 0

	for head := 0; head < len(queue); head++ {
		v := VId(queue[head])
		d := distances[v]
		for _, nb := range csr.Neighbors(v) {
			if distances[nb] == Unreached {
				distances[nb] = d + 1
				queue = append(queue, uint32(nb))
			}
		}
	}
}

// SerialParents is the parents-shape counterpart of SerialBFS.
func SerialParents(csr *CSR, source VId, parents []VId) {
	for i := range parents {
		parents[i] = Unreached
	}
	visited := make([]bool, len(parents))
	queue := pools.GetVIDs(csr.NumVertices())
	defer pools.PutVIDs(queue)
	queue = append(queue, uint32(source))
	visited[source] = true
	parents[source] = source

	for head := 0; head < len(queue); head++ {
		v := VId(queue[head])
		for _, nb := range csr.Neighbors(v) {
			if !visited[nb] {
				visited[nb] = true
				parents[nb] = v
				queue = append(queue, uint32(nb))
			}
		}
	}
}
