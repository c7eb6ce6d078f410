// Package registry persists the durable record of plugins this tool has
// attempted to install and their outcomes. The store is a human-readable
// JSON file written atomically (write-to-temp-then-rename) so a crash
// mid-write never leaves a torn file: readers always see either the prior
// complete registry or the new complete registry.
package registry
