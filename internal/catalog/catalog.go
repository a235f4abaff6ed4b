// Package catalog derives view state from the backend's video list: ordering,
// next/previous adjacency for the watch page, and title search.
package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/streamvp/streamvp/internal/api"
)

// SortNewestFirst orders videos by creation time descending, ties broken by
// id descending. Adjacency is defined over this order; the backend's response
// order is not part of the contract.
func SortNewestFirst(videos []api.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		if !videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].CreatedAt.After(videos[j].CreatedAt)
		}
		return videos[i].ID > videos[j].ID
	})
}

// Neighbors returns the watch-page navigation targets for the video with the
// given id: next is the newer neighbor, previous the older one. A nil result
// means the corresponding control is disabled. The slice must already be
// sorted newest-first.
func Neighbors(videos []api.Video, id int64) (next, previous *api.Video) {
	for i := range videos {
		if videos[i].ID != id {
			continue
		}
		if i > 0 {
			next = &videos[i-1]
		}
		if i < len(videos)-1 {
			previous = &videos[i+1]
		}
		return next, previous
	}
	return nil, nil
}

// Others returns up to limit catalog entries excluding the current video,
// preserving order. Used for the "more videos" rail on the watch page.
func Others(videos []api.Video, id int64, limit int) []api.Video {
	out := make([]api.Video, 0, limit)
	for _, v := range videos {
		if v.ID == id {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Search filters videos by fuzzy title match, best matches first. An empty
// query returns the input unchanged.
func Search(videos []api.Video, query string) []api.Video {
	query = strings.TrimSpace(query)
	if query == "" {
		return videos
	}

	titles := make([]string, len(videos))
	for i, v := range videos {
		titles[i] = v.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	out := make([]api.Video, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, videos[r.OriginalIndex])
	}
	return out
}
