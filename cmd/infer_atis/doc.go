// Package main provides a program that scores a saved checkpoint on the
// validation or test split of an ATIS fold and prints the conlleval summary.
package main
