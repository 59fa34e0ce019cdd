package memory

import "github.com/secmon-lab/codergate/pkg/domain/types"

// New creates a new in-memory store. It implements both interfaces.Store and
// interfaces.AnalysisStore.
func New() *Client {
	return &Client{
		repos:    make(map[types.RepoID]*repoData),
		analyses: make(map[types.RepoID][]*analysisData),
	}
}
