// Package build runs the site pipeline as an ordered list of timed stages:
// prepare the output root, load and render documents, run the content
// filters, generate synthetic routes, write every page, synchronize asset
// directories and post-process the written HTML.
//
// Only the stages that belong to the surrounding generation system
// (prepare_output, load_documents, write_output) can abort a build. Every
// content pipeline problem is recorded as a warning and the build goes on.
package build
