package argue

import (
	"sort"

	"github.com/Snaizl101/collab-decision-making/model"
)

// TreesFromRows reconstructs the per-thread argument trees from flat stored
// rows, keyed by thread id. Children are ordered by timestamp (stable by row
// id on ties); arguments without a thread are left out, since the thread is
// the rendering unit.
func TreesFromRows(arguments []*model.Argument, points []*model.SupportingPoint) map[int64][]*model.ArgumentNode {
	ordered := make([]*model.Argument, len(arguments))
	copy(ordered, arguments)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Timestamp != ordered[j].Timestamp {
			return ordered[i].Timestamp < ordered[j].Timestamp
		}
		return ordered[i].ID < ordered[j].ID
	})

	pointsByArgument := map[int64][]*model.SupportingPoint{}
	for _, p := range points {
		pointsByArgument[p.ArgumentID] = append(pointsByArgument[p.ArgumentID], p)
	}

	nodes := make(map[int64]*model.ArgumentNode, len(ordered))
	for _, arg := range ordered {
		nodes[arg.ID] = &model.ArgumentNode{
			Argument: arg,
			Points:   pointsByArgument[arg.ID],
		}
	}

	trees := map[int64][]*model.ArgumentNode{}
	for _, arg := range ordered {
		node := nodes[arg.ID]
		if arg.ParentID != nil {
			if parent, ok := nodes[*arg.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		if arg.ThreadID != nil {
			trees[*arg.ThreadID] = append(trees[*arg.ThreadID], node)
		}
	}

	return trees
}
