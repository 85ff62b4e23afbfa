// Package api exposes the daemon's HTTP ingress for the external chat
// collaborator: pack creation, claims, submissions, and status views. Tagged
// workflow outcomes map to 2xx/4xx responses; component failures surface as
// 500s.
package api
