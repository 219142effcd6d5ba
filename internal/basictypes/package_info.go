// Package basictypes contains types and constants that are used by multiple packages in
// this module and do not have any testable logic of their own.
//
// Putting such things here, instead of in one of the packages that use them, allows us to
// reference them in shared test code as well without causing import cycles if those other
// packages also use the shared test code.
package basictypes
