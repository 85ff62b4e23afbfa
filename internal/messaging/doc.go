// Package messaging sends workflow events to the configured volunteer
// channel.
//
// The gateway posts JSON events to a webhook endpoint; binary payloads are
// base64-encoded by the JSON encoder. An unconfigured endpoint yields a noop
// gateway so the workflow never has to branch on messaging availability.
package messaging
