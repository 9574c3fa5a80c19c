// Package main is for dynamic libraries only
// Should always match pkg/authn/mobile.go
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/mousybusiness/gsignin/pkg/authn"
)

var allocated = newAllocations()

//export SignIn
// SignIn runs Google sign-in and returns the signed-in user as JSON
func SignIn(clientID, clientSecret, backendURL, storagePath, mode *C.char, custom C.int) *C.char {
	r := authn.SignIn(
		C.GoString(clientID),
		C.GoString(clientSecret),
		C.GoString(backendURL),
		C.GoString(storagePath),
		C.GoString(mode),
		custom != 0,
	)
	if r == "" {
		return nil
	}

	// every call gets its own allocation, freed once by the host
	p := C.CString(r)
	allocated.track(uintptr(unsafe.Pointer(p)))

	return p
}

//export Link
// Link links a Google account to the stored session's user
func Link(clientID, clientSecret, backendURL, storagePath *C.char) bool {
	return authn.Link(C.GoString(clientID), C.GoString(clientSecret), C.GoString(backendURL), C.GoString(storagePath))
}

//export Unlink
// Unlink removes the Google account from the stored session's user
func Unlink(backendURL, storagePath *C.char) bool {
	return authn.Unlink(C.GoString(backendURL), C.GoString(storagePath))
}

//export Logout
// Logout forgets the stored session
func Logout(storagePath *C.char) bool {
	return authn.Logout(C.GoString(storagePath))
}

//export Free
// Free will release memory allocated for user json
func Free(json *C.char) bool {
	if json == nil {
		_, _ = fmt.Fprintf(os.Stderr, "JSON string is nil!\n")
		return false
	}

	if !allocated.release(uintptr(unsafe.Pointer(json))) {
		_, _ = fmt.Fprintf(os.Stderr, "JSON string was not allocated here or is already freed!\n")
		return false
	}

	C.free(unsafe.Pointer(json))
	return true
}

func main() {}
