// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// compareMetadata reports field disagreements between an entry and its
// resolved record.
func compareMetadata(e types.Entry, c types.Candidate) []types.Issue {
	var issues []types.Issue

	if e.Has("title") {
		sim := normalize.TitleSimilarity(e.Get("title"), c.Title)
		details := map[string]any{"online_title": c.Title, "similarity": sim}
		switch {
		case sim < 70:
			issues = append(issues, types.NewError(types.IssueTitleMismatch, fmt.Sprintf("title similarity too low (%d)", sim), details))
		case sim < 85:
			issues = append(issues, types.NewWarning(types.IssueTitleMismatch, fmt.Sprintf("title similarity moderate (%d)", sim), details))
		}
	}

	if local, online := e.Get("year"), strings.TrimSpace(c.Year); local != "" && online != "" && local != online {
		sev := types.NewError
		ly, err1 := strconv.Atoi(local)
		oy, err2 := strconv.Atoi(online)
		if err1 == nil && err2 == nil && abs(ly-oy) == 1 {
			sev = types.NewWarning
		}
		issues = append(issues, sev(types.IssueYearMismatch,
			fmt.Sprintf("year differs: local %s, online %s", local, online),
			map[string]any{"local_year": local, "online_year": online}))
	}

	if local := normalize.Authors(e.Get("author")); len(local) > 0 && len(c.Authors) > 0 {
		if !authorsMatch(local, c.Authors) {
			issues = append(issues, types.NewError(types.IssueAuthorMismatch, "authors differ",
				map[string]any{"online_authors": c.Authors}))
		}
	}

	local, online := normalize.CleanVenue(e.Venue()), normalize.CleanVenue(c.Venue)
	if local != "" && online != "" && !strings.Contains(online, local) && !strings.Contains(local, online) {
		issues = append(issues, types.NewWarning(types.IssueVenueMismatch,
			fmt.Sprintf("venue differs: local %s, online %s", local, online),
			map[string]any{"local_venue": local, "online_venue": online}))
	}
	return issues
}

// authorsMatch requires the same first-author surname and author counts
// within three of each other.
func authorsMatch(local, online []string) bool {
	lf, of := normalize.Surname(local[0]), normalize.Surname(online[0])
	if lf != "" && of != "" && lf != of {
		return false
	}
	return abs(len(local)-len(online)) <= 3
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
