// Package model defines the core data structures shared by the
// audiograb packages.
//
// # Job
//
// Job is one orchestration request for a single input URL:
//
//	job := model.NewJob("https://archive.org/details/gd1977", false, model.SourceAuto)
//
// # Outcome
//
// Outcome reports how a Job ended. Only the domain guard and unexpected
// errors make it fail:
//
//	if !outcome.Success {
//	    fmt.Println(outcome.Reason, outcome.Message)
//	}
//
// # Backend configuration
//
// BackendConfig carries exactly the options the extraction backend
// understands: output directory, file name pattern, codec and quality.
package model
