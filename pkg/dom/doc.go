// Package dom is a small headless DOM layer over golang.org/x/net/html. It
// offers the handful of browser operations nested field handling relies on:
// ancestor lookup, id and attribute queries, inner HTML serialisation,
// "beforeend" insertion, removal, inline hiding, and form value collection.
//
// As in a browser, the contents of <template> elements are inert: searches
// and form collection never look inside them, while InnerHTML still reads them.
package dom
