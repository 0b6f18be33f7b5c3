// Package resttest is a small DSL for integration tests of conventional CRUD web applications.
//
// A Session wraps an HTTP transport and a registry of named path helpers. Calls such as
//
//	s.Build("article", resttest.Params{"article": resttest.Params{"title": "Foo Bites Bar"}})
//
// or equivalently s.Call("build_article", ...) fetch the "new" page, check that its form posts to
// the collection path with a field for every parameter, submit the form, expect a redirect and
// follow it. Every failed expectation is reported through the helpers.TestContext that the
// Session was created with and stops the test.
package resttest
