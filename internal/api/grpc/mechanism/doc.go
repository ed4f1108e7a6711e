// Package mechanism exposes the controller over gRPC.
//
// The service is described by hand with protobuf well-known types so no
// generated code is needed: GetStatus returns the latest snapshot as a
// google.protobuf.Struct and PressButton feeds a raw remote code into the
// same queue the infrared receiver uses.
package mechanism
