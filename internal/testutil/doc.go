// Package testutil holds the sample domain model shared by tests: Cat
// entities, their QCat metamodel, a typed alias stand-in and fixtures.
package testutil
