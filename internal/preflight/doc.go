// Package preflight provides readiness checks for the filesystem paths and
// state that crqa depends on.
//
// These checks run in two contexts:
//   - The pipeline runner calls RunAll before a batch starts. If any check
//     fails, the run is refused before a run record is created.
//   - The CLI "crqa check" command prints every result as a table.
package preflight
