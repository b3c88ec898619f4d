package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"unsafe"
)

var handles = newRegistry()

// recorddb_open opens an empty database with the given key kind ("int" or
// "string"). It returns -1 on failure.
//
//export recorddb_open
func recorddb_open(kind *C.char) C.int {
	handle, err := handles.open(C.GoString(kind), "")
	if err != nil {
		return -1
	}
	return C.int(handle)
}

// recorddb_open_config is recorddb_open with settings from a config file.
//
//export recorddb_open_config
func recorddb_open_config(path *C.char) C.int {
	handle, err := handles.open("", C.GoString(path))
	if err != nil {
		return -1
	}
	return C.int(handle)
}

//export recorddb_close
func recorddb_close(handle C.int) {
	handles.close(int(handle))
}

// recorddb_execute returns a JSON response that the caller must release with
// recorddb_free.
//
//export recorddb_execute
func recorddb_execute(handle C.int, text *C.char) *C.char {
	return C.CString(string(handles.execute(int(handle), C.GoString(text))))
}

//export recorddb_free
func recorddb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func main() {}
