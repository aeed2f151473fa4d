// Package kb provides helper functions for key block field descriptions.
package kb

import "fmt"

// usageDescriptions maps the key usage codes accepted by the header codec to
// their ASC X9 TR 31-2018 descriptions.
var usageDescriptions = map[string]string{
	"B0": "Base Derivation Key (BDK)",
	"B1": "Initial DUKPT Key (IKEY)",
	"B2": "Base Key Variant Key",
	"C0": "Card Verification Key (CVK)",
	"D0": "Data Encryption Key (Generic)",
	"D1": "Asymmetric Key for Data Encryption",
	"D2": "Data Encryption Key for Decimalization Table",
	"E0": "EMV/Chip Master Key: Application Cryptogram (MKAC)",
	"E1": "EMV/Chip Master Key: Secure Messaging for Confidentiality (MKSMC)",
	"E2": "EMV/Chip Master Key: Secure Messaging for Integrity (MKSMI)",
	"E3": "EMV/Chip Master Key: Data Authentication Code (MKDAC)",
	"E4": "EMV/Chip Master Key: Dynamic Numbers (MKDN)",
	"E5": "EMV/Chip Master Key: Card Personalization",
	"E6": "EMV/Chip Master Key: Other",
	"K0": "Key Encryption or Wrapping Key (Generic)",
	"K1": "TR-31 Key Block Protection Key (KBPK)",
	"K2": "TR-34 Asymmetric Key Exchange Key",
	"K3": "Asymmetric Key for Key Agreement/Wrapping",
	"M0": "ISO 16609 MAC algorithm 1 (using TDEA)",
	"M1": "ISO 9797-1 MAC algorithm 1",
	"M2": "ISO 9797-1 MAC algorithm 2",
	"M3": "ISO 9797-1 MAC algorithm 3",
	"M4": "ISO 9797-1 MAC algorithm 4",
	"M5": "ISO 9797-1:1999 MAC algorithm 5",
	"M6": "ISO 9797-1:2011 MAC algorithm 5 (CMAC)",
	"M7": "HMAC key",
	"M8": "ISO 9797-1:2011 MAC algorithm 6",
	"P0": "PIN Encryption Key (Generic)",
	"S0": "Asymmetric Key Pair for Digital Signature",
}

// optionalBlockDescriptions maps the optional block IDs accepted by the
// header codec to their meanings.
var optionalBlockDescriptions = map[string]string{
	"CT": "Public key certificate",
	"HM": "Hash algorithm for HMAC",
	"IK": "Initial DUKPT key identifier (IKID)",
	"KC": "Key check value of the wrapped key",
	"KP": "Key check value of the KBPK",
	"KS": "Key set identifier",
	"KV": "Key block values version",
	"PB": "Padding to a cipher block boundary",
	"TS": "Time stamp",
}

func usageMeaning(u string) string {
	if m, ok := usageDescriptions[u]; ok {
		return m
	}

	return "Unknown key usage"
}

func algorithmMeaning(b byte) string {
	switch b {
	case 'A':
		return "AES"
	case 'D':
		return "DES"
	case 'E':
		return "Elliptic curve"
	case 'H':
		return "HMAC"
	case 'R':
		return "RSA"
	case 'S':
		return "DSA"
	case 'T':
		return "Triple DES"
	default:
		return "Unknown algorithm"
	}
}

func modeOfUseMeaning(b byte) string {
	switch b {
	case 'B':
		return "Both encrypt and decrypt"
	case 'C':
		return "MAC calculation (both generate and verify)"
	case 'D':
		return "Decrypt only"
	case 'E':
		return "Encrypt only"
	case 'G':
		return "MAC generate only"
	case 'N':
		return "No special restrictions"
	case 'S':
		return "Digital signature generation only"
	case 'T':
		return "Both sign and decrypt"
	case 'V':
		return "MAC verify or signature verify only"
	case 'X':
		return "Key derivation only"
	case 'Y':
		return "Key variant creation only"
	default:
		return "Unknown mode of use"
	}
}

func exportabilityMeaning(b byte) string {
	switch b {
	case 'E':
		return "Exportable under a trusted key"
	case 'N':
		return "No export permitted"
	case 'S':
		return "Sensitive; exportable under an untrusted key"
	default:
		return "Unknown exportability"
	}
}

func optionalBlockMeaning(id string) string {
	if m, ok := optionalBlockDescriptions[id]; ok {
		return m
	}

	return "Unknown optional block"
}

func keyVersionMeaning(s string) string {
	if s == "00" {
		return "Key versioning not used"
	}
	if len(s) == 2 && s[0] == 'c' {
		return fmt.Sprintf("Key component %c", s[1])
	}

	return fmt.Sprintf("Version %s", s)
}
