// Package suggest maps diagnostic codes to remediation templates. The
// table is fixed at process start; suggestions carry a human-readable
// fix and a corrected code example for every cataloged code.
package suggest
