// Package manifest records what a batch run produced.
//
// After a run, the output directory gets two extra files:
//
//   - matched.manifest: one "relative/path<TAB>size" line per regular file
//     under the directory (recursively), with slash separators, sorted by path
//     component. The file always ends in a newline.
//   - matched.manifest.md5: "<md5 hex>  matched.manifest" plus a newline, in
//     the format understood by md5sum -c.
//
// Files named matched.manifest or matched.manifest.md5 are never listed, at
// any depth, so regenerating the manifest is idempotent.
//
// Verify recomputes the manifest from the directory contents and compares its
// digest with the recorded one, which detects files that were added, removed,
// or changed size after the run.
package manifest
