// Package admintoken manages the sliding-expiry credential string for the
// privileged operating mode: a grammar-checked encode/decode pair plus a
// lifecycle manager that renews the issue timestamp on every successful
// validation.
package admintoken
