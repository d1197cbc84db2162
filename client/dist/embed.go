package clientdist

import _ "embed"

// RuntimeJS is the client runtime that applies update scripts and sends
// commands over the sync socket.
//
// It is served by the server at "/_domsync/runtime.js".
//
//go:embed domsync.js
var RuntimeJS []byte
