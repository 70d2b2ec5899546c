// Package requests lists submitted requests and cleans up what they created.
package requests

import (
	"fmt"

	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/request"
)

// Created lists the non-zero resource counts of a record.
func Created(r api.RequestRecord) []string {
	var out []string
	add := func(n api.Count, what string) {
		if n > 0 {
			out = append(out, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(r.CreatedResources.Subaccounts, "subaccounts")
	add(r.CreatedResources.Courses, "courses")
	add(r.CreatedResources.Users, "users")
	return out
}

// Period renders the request period as "d-m-yyyy - d-m-yyyy".
func Period(r api.RequestRecord) string {
	return request.FormatNumericDate(r.StartDate) + " - " + request.FormatNumericDate(r.EndDate)
}

// CleanupNotice is the message shown after a successful cleanup.
func CleanupNotice(res *api.CleanupResult) string {
	return fmt.Sprintf("Cleaned up: %d courses, %d users", res.DeletedCourses, res.DeletedUsers)
}
