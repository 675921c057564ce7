package flatjson

// Package flatjson projects streaming JSON onto Go records through declared
// dotted paths:
//
// - Build compiles field declarations (paths, naming policy, substitutions, markers) into a Tree
// - Reader walks the Tree against a token Source in one forward pass, skipping undeclared keys
// - Mandatory fields are tracked in a bitset and reported as *ReadError with code "required"
// - Types outside the core set are read through a Registry of nested readers or Delegates
//
// Design policy:
// - Keep only public APIs in the root package; token plumbing lives under internal/.
// - Token drivers live under source/, declaration files under declfile/, and the CLI under cmd/flatjson.
// - Library code returns errors and never logs.
//
// Typical usage:
//
//	type Order struct {
//		ID    string  `flatjson:"order.id,mandatory"`
//		Total float64 `flatjson:"order.amount.total"`
//	}
//
//	r, err := flatjson.Compile[Order](flatjson.BuildOpt{})
//	o, err := r.ReadBytes(ctx, data)
