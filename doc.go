package jsonvet

// Package jsonvet provides:
//
// - A document model over decoded JSON/YAML trees (ordered *Object, arrays, scalars)
// - The Validator interface and a stable error model (ValidationError: code, message, path)
// - Decoding via pluggable JSON drivers with duplicate-key/depth/size enforcement
// - ExtractInvalidNode to locate the node an error points at
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the validator algebra under dsl/, the schema model and compiler under spec/,
//   inference under infer/, and the CLI under cmd/jsonvet.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  t, err := model.Of[Person]()
//  sch, err := infer.BuildSchema(t, infer.DefaultOptions())
//  v, err := spec.Compile(sch, false)
//  doc, err := jsonvet.ParseJSON(data)
//  for e := range v.Validate(doc) {
//      fmt.Println(e.Render())
//  }
//
