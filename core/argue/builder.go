package argue

import (
	"fmt"
	"sort"

	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/google/uuid"
)

// Node is one argument annotation placed in the forest. Nodes are an arena:
// parent/child relations are indices into Forest.Nodes, never pointers, which
// keeps cycle detection a plain reachability walk.
type Node struct {
	Ann        model.ArgumentAnnotation
	Confidence float64
	Thread     int   // index into Forest.Threads, -1 when no topic contains the argument
	Parent     int   // index into Forest.Nodes, -1 for roots
	Children   []int // ordered by timestamp
	Points     []model.SupportingPointAnnotation
	Dropped    bool
}

// Thread groups the roots assigned to one topic.
type Thread struct {
	TopicIndex int   // index into the assembled topic list
	Initial    int   // node index of the initial argument, -1 when the thread is empty
	Roots      []int // kept roots in node order
}

// Forest is the argument forest for one recording. Warnings collect the
// recovered per-subtree failures (dangling references); they never abort the
// build.
type Forest struct {
	Nodes    []Node
	Threads  []Thread
	Warnings []error
}

// Build assembles the argument forest from the annotation set.
//
// Arguments are assigned to threads by topic/time containment: among the
// bounded topics containing the argument's timestamp, the one with the latest
// start wins. Parent references are resolved in two passes: all nodes are
// created first, then parent links are wired, failing with model.CycleError
// on any link that would make the tree cyclic and model.TemporalOrderError on
// a parent timestamped strictly after its child. A parent reference to an
// unknown key drops that argument's subtree with a warning; a standalone
// supporting point referencing an unknown argument drops just that point.
// Each thread without a designated initial argument is backfilled with its
// earliest root.
func Build(rid uuid.UUID, set model.AnnotationSet, topicList []model.Topic) (*Forest, error) {
	forest := &Forest{}

	// Pass one: create all nodes and assign identity by external ref.
	byRef := map[string]int{}
	for _, ann := range set.Arguments {
		if !model.ValidArgumentType(ann.Type) {
			ann.Type = model.ArgumentTypeOther
		}

		node := Node{
			Ann:        ann,
			Confidence: ClampConfidence(ann.Confidence),
			Thread:     -1,
			Parent:     -1,
			Points:     append([]model.SupportingPointAnnotation(nil), ann.SupportingPoints...),
		}

		if _, exists := byRef[ann.Ref]; exists && ann.Ref != "" {
			node.Dropped = true
			forest.Warnings = append(forest.Warnings,
				fmt.Errorf("recording %s: duplicate argument ref %q dropped", rid, ann.Ref))
			forest.Nodes = append(forest.Nodes, node)
			continue
		}

		idx := len(forest.Nodes)
		forest.Nodes = append(forest.Nodes, node)
		if ann.Ref != "" {
			byRef[ann.Ref] = idx
		}
	}

	forest.assignThreads(topicList)

	// Pass two: wire parent links.
	for i := range forest.Nodes {
		node := &forest.Nodes[i]
		if node.Dropped || node.Ann.ParentRef == nil {
			continue
		}

		parentIdx, ok := byRef[*node.Ann.ParentRef]
		if !ok {
			node.Dropped = true
			forest.Warnings = append(forest.Warnings, &model.DanglingReferenceError{
				RecordingRID: rid,
				Kind:         "argument parent",
				Ref:          node.Ann.Ref,
				Target:       *node.Ann.ParentRef,
			})
			continue
		}

		parent := &forest.Nodes[parentIdx]
		if parent.Ann.Timestamp > node.Ann.Timestamp {
			return nil, &model.TemporalOrderError{
				RecordingRID: rid,
				ChildRef:     node.Ann.Ref,
				ParentRef:    parent.Ann.Ref,
				ChildTime:    node.Ann.Timestamp,
				ParentTime:   parent.Ann.Timestamp,
			}
		}
		if forest.reaches(parentIdx, i) {
			return nil, &model.CycleError{RecordingRID: rid, Ref: node.Ann.Ref}
		}

		node.Parent = parentIdx
	}

	forest.propagateDrops()
	forest.linkChildren()
	forest.collectRoots()
	forest.attachStandalonePoints(rid, set.SupportingPoints, byRef)

	return forest, nil
}

// reaches reports whether following parent links from start arrives at
// target. The walk is bounded by the node count, so it terminates even on
// corrupt input.
func (f *Forest) reaches(start, target int) bool {
	current := start
	for steps := 0; steps <= len(f.Nodes) && current != -1; steps++ {
		if current == target {
			return true
		}
		current = f.Nodes[current].Parent
	}
	return false
}

// assignThreads places each node into the thread of the most specific topic:
// the bounded topic with the latest start time at or before the argument's
// timestamp. Threads are created lazily, one per capturing topic.
func (f *Forest) assignThreads(topicList []model.Topic) {
	threadByTopic := map[int]int{}

	for i := range f.Nodes {
		node := &f.Nodes[i]

		best := -1
		for ti := range topicList {
			if !topicList[ti].Contains(node.Ann.Timestamp) {
				continue
			}
			if best == -1 || *topicList[ti].StartTime > *topicList[best].StartTime {
				best = ti
			}
		}
		if best == -1 {
			continue
		}

		threadIdx, ok := threadByTopic[best]
		if !ok {
			threadIdx = len(f.Threads)
			f.Threads = append(f.Threads, Thread{TopicIndex: best, Initial: -1})
			threadByTopic[best] = threadIdx
		}
		node.Thread = threadIdx
	}
}

// propagateDrops excludes every node whose ancestor chain crosses a dropped
// node, so a dangling parent reference removes the whole subtree.
func (f *Forest) propagateDrops() {
	for i := range f.Nodes {
		current := i
		for steps := 0; steps <= len(f.Nodes) && current != -1; steps++ {
			if f.Nodes[current].Dropped {
				f.Nodes[i].Dropped = true
				break
			}
			current = f.Nodes[current].Parent
		}
	}
}

func (f *Forest) linkChildren() {
	order := make([]int, 0, len(f.Nodes))
	for i := range f.Nodes {
		if !f.Nodes[i].Dropped {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.Nodes[order[a]].Ann.Timestamp < f.Nodes[order[b]].Ann.Timestamp
	})

	for _, i := range order {
		if parent := f.Nodes[i].Parent; parent != -1 {
			f.Nodes[parent].Children = append(f.Nodes[parent].Children, i)
		}
	}
}

// collectRoots gathers each thread's kept roots and backfills the initial
// argument with the earliest root.
func (f *Forest) collectRoots() {
	for i := range f.Nodes {
		node := &f.Nodes[i]
		if node.Dropped || node.Parent != -1 || node.Thread == -1 {
			continue
		}

		thread := &f.Threads[node.Thread]
		thread.Roots = append(thread.Roots, i)
		if thread.Initial == -1 || node.Ann.Timestamp < f.Nodes[thread.Initial].Ann.Timestamp {
			thread.Initial = i
		}
	}
}

// attachStandalonePoints resolves top-level supporting point annotations to
// their arguments. Unknown references drop only the point itself.
func (f *Forest) attachStandalonePoints(rid uuid.UUID, points []model.SupportingPointAnnotation, byRef map[string]int) {
	for _, point := range points {
		idx, ok := byRef[point.ArgumentRef]
		if !ok {
			f.Warnings = append(f.Warnings, &model.DanglingReferenceError{
				RecordingRID: rid,
				Kind:         "supporting point",
				Ref:          point.Text,
				Target:       point.ArgumentRef,
			})
			continue
		}
		f.Nodes[idx].Points = append(f.Nodes[idx].Points, point)
	}
}

// ClampConfidence resolves an optional annotation confidence to its stored
// value: absent defaults to 1.0, out-of-range values clamp into [0,1].
func ClampConfidence(confidence *float64) float64 {
	if confidence == nil {
		return 1.0
	}
	switch {
	case *confidence < 0:
		return 0
	case *confidence > 1:
		return 1
	}
	return *confidence
}
