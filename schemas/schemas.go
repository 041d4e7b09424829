// Package schemas embeds the JSON Schemas of the files the screener writes.
package schemas

import _ "embed"

// RankedResumes is the schema of the ranking output file
//
//go:embed ranked_resumes.schema.json
var RankedResumes string
