// Package cli implements surveyctl, a command-line client for the survey
// API.
//
// Commands run one-shot when given on the command line (surveyctl surveys
// active) or interactively from a REPL when surveyctl starts without one.
// The session token obtained by login is kept in a local SQLite database,
// so later invocations stay authenticated until logout.
//
// Survey definitions and submissions are read from JSON files:
//
//	surveyctl create survey.json
//	surveyctl submit <survey-id> answers.json
package cli
