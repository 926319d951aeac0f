// Package discord speaks the local Discord desktop IPC protocol and the small
// part of the public HTTP API needed to describe an application.
//
// # IPC
//
// The desktop client listens on a unix socket named discord-ipc-N (N in 0..9)
// under $XDG_RUNTIME_DIR, /run/user/<uid> or /tmp. Every message is a frame:
//
//	int32 LE opcode | int32 LE payload length | JSON payload
//
// A session starts with a handshake frame ({"v":1,"client_id":...}) whose
// reply carries the connected user. Activity updates are SET_ACTIVITY command
// frames acknowledged one-for-one; a reply with evt == "ERROR" is a rejection.
//
// # Activity
//
// BuildActivity applies the client's acceptance rules before anything is
// sent: text lines shorter than two characters are dropped, at most two
// buttons survive, button URLs are forced to https and labels are capped at
// 32 characters.
//
// # HTTP
//
// APIClient fetches public application metadata (name and icon) from
// /oauth2/applications/<id>/rpc. It needs no token.
package discord
