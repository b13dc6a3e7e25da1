package routing

import (
	"github.com/lintang-b-s/wayfinder/pkg/util"
)

// ReconstructPath stitch the forward and backward predecessor chains of a
// bidirectional search into one ordered route.
//
// walk the forward predecessors from the meeting node back to the source,
// then follow the backward-predecessor chain starting at the backward
// predecessor of the meeting node until the target, so the meeting node
// appears exactly once. result[0] is the source, result[len-1] the target,
// and every consecutive pair is a real directed edge of the graph.
func ReconstructPath(meetingNode string, cameFromF, cameFromB map[string]string) []string {
	forwardChain := make([]string, 0)
	for cur := meetingNode; cur != ""; cur = cameFromF[cur] {
		forwardChain = append(forwardChain, cur)
	}
	path := util.ReverseG(forwardChain)

	// cameFromB[x] = y means the directed edge x->y lies on the backward
	// search tree toward the target.
	for cur := cameFromB[meetingNode]; cur != ""; cur = cameFromB[cur] {
		path = append(path, cur)
	}

	return path
}
