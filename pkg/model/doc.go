// Package model defines the typed form model for the add-product screen.
// A FormModel lists its fields in prompt order; each Field carries the
// validation rules evaluated by pkg/validation and an optional closed set of
// options for enumerated inputs. Rules expose canonical kinds (required,
// pattern, minLength, maxLength) with string parameters and the message shown
// inline when the rule fails.
//
// The product type field is backed by PowerRating, a closed enumeration of
// kilowatt ratings that maps each option tag to its numeric payload without
// free-form float parsing.
package model
