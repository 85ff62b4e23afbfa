// Command packsmith is the operator CLI: pack provisioning, status and claim
// inspection, and configuration utilities. It works directly against the
// configured storage root.
package main
