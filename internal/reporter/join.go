// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// AttachPublications groups publications by core project number and
// attaches each group, in its original order, to the matching project.
// Publications whose core project number matches no project in the page
// are dropped; they belong to projects outside the current page. Projects
// with no matching publications are left unmodified rather than given an
// empty list.
func AttachPublications(projects []types.ProjectRecord, pubs []types.PublicationRecord) {
	if len(projects) == 0 || len(pubs) == 0 {
		return
	}

	byProject := make(map[string][]types.PublicationRecord)
	for _, pub := range pubs {
		if pub.CoreProjectNum == "" {
			continue
		}
		byProject[pub.CoreProjectNum] = append(byProject[pub.CoreProjectNum], pub)
	}

	for i := range projects {
		if group, ok := byProject[projects[i].ProjectNum]; ok {
			projects[i].RelatedPublications = group
		}
	}
}
