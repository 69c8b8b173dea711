// Package restclient issues HTTP calls that return deferred, typed responses.
//
// A call is prepared eagerly and resolved lazily: Call obtains a connection
// from the client's ConnectionProvider, runs the ConnectionInitializer chain,
// adds explicit headers and, for POST and PUT, sends the buffered body. The
// returned Response reads the status line and body on first access and
// caches what it read.
//
//	client, err := restclient.New(&restclient.Config{ErrorPolicy: "5xx"},
//	    restclient.WithInitializers(restclient.BearerAuth(token)))
//
//	resp, err := restclient.Get(client, ctx, "api.example.com/users/42",
//	    restclient.JSON[User](), nil)
//	user, err := resp.Content()
//
// Status errors are only raised through an ErrorHandler, and only from
// Content. Without one, a 4xx or 5xx body is deserialized like any other,
// or yields the zero value when no deserializer was given. Transport
// failures are always returned.
//
// Cancel closes the connection from any goroutine. A Content call blocked on
// the body then returns a Cancelled error.
//
// A Client is immutable once built. Derive returns a copy with extra options
// applied.
package restclient
