// Package schemacompat decides whether a new version of a JSON Schema stays
// compatible with an old one.
//
// - BACKWARD: the new schema still accepts data written against the old schema
// - FORWARD: the old schema still accepts data produced under the new schema
// - FULL: both of the above
//
// Only type, properties and required are interpreted. The result of a check is a
// list of Violations; an empty list means compatible. Misuse (non-object arguments,
// an unknown compatibility type, an unsupported schema type) is reported as an error
// instead.
//
// Typical usage:
//
//	vs, err := schemacompat.Check(oldDoc, newDoc, schemacompat.Full)
//	if err != nil {
//		return err
//	}
//	for _, v := range vs {
//		fmt.Println(v.Message)
//	}
//
// Schema files can be loaded with the schemafile package; the registry package
// keeps a versioned history per subject and gates new versions on compatibility.
package schemacompat
