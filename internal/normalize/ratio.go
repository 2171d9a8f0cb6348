// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"sort"
	"strings"
)

// TitleSimilarity returns the token-set similarity (0-100) of two titles
// after normalization. Either side empty yields 0.
func TitleSimilarity(a, b string) int {
	na, nb := Title(a), Title(b)
	if na == "" || nb == "" {
		return 0
	}
	return TokenSetRatio(na, nb)
}

// TokenSetRatio compares the whitespace token sets of a and b and returns a
// similarity in [0, 100]. Token order and duplicates are ignored; when one
// set is contained in the other the ratio is 100.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			sect = append(sect, t)
		} else {
			diffAB = append(diffAB, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			diffBA = append(diffBA, t)
		}
	}
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(sect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)
	sectJoined := []rune(strings.Join(sect, " "))
	abJoined := []rune(strings.Join(diffAB, " "))
	baJoined := []rune(strings.Join(diffBA, " "))

	sectLen := len(sectJoined)
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + len(abJoined)
	sectBALen := sectLen + sep + len(baJoined)

	result := normalizedSimilarity(indelDistance(abJoined, baJoined), sectABLen+sectBALen)
	if sectLen == 0 {
		return int(result)
	}

	sectAB := normalizedSimilarity(sep+len(abJoined), sectLen+sectABLen)
	sectBA := normalizedSimilarity(sep+len(baJoined), sectLen+sectBALen)
	return int(max(result, sectAB, sectBA))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

func normalizedSimilarity(dist, lenSum int) float64 {
	if lenSum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lenSum))
}

// indelDistance is the insert/delete edit distance, len(a)+len(b)-2*LCS.
func indelDistance(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return len(a) + len(b)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return len(a) + len(b) - 2*prev[len(b)]
}
