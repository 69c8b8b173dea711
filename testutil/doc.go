// Package testutil provides an HTTP fixture server for client tests.
//
// The server is a gin engine behind httptest. It records every request it
// receives and serves a fixed set of routes:
//
//	GET  /text           plain text body
//	GET  /json           JSON document
//	ANY  /echo           JSON description of the request
//	ANY  /status/:code   responds with code and a text body
//	ANY  /form           JSON of the parsed url-encoded form
//	POST /upload         JSON of the parsed multipart form
//	GET  /slow           waits ?delay= (default 2s) before answering
//	GET  /drip           flushes headers and part of the body, then stalls
//	GET  /charset        ISO-8859-1 body, status from ?status=
//	ANY  /flaky/:key/:n  drops the first n connections for key
//
// Typical use:
//
//	func TestClient(t *testing.T) {
//	    srv := testutil.NewServer(t)
//	    resp, err := client.Get(ctx, srv.URL("/text"))
//	}
package testutil
