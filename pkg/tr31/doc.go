// Package tr31 implements ASC X9 TR-31 version D key blocks: the AES-CMAC
// key derivation, the header and optional block codecs, and authenticated
// wrap and unwrap of key material under a key block protection key.
package tr31
