// Package multipart encodes multipart/form-data request bodies.
//
// Content is an insertion-ordered mapping from field name to Part. A Part is
// one of Text, File or Stream:
//
//	content := multipart.NewContent().
//	    Put("title", multipart.Text("report")).
//	    Put("upload", multipart.File("/tmp/report.pdf", "application/pdf"))
//
//	gen := multipart.NewBoundaryGenerator(nil)
//	boundary := gen.Next()
//	body, err := multipart.Encode(boundary, content)
//
// Encode writes parts without a closing delimiter. Use an Encoder with
// Conformant set to append the terminating "--boundary--" line required by
// RFC 7578 parsers.
package multipart
