// Command greenroom is the operator CLI for inspecting recorded interview
// sessions, their transcripts, the external tool dependencies, and the
// service configuration. The long-running HTTP service is the separate
// greenroomd binary.
package main
