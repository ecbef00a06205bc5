// Command curblrgen ingests a municipal sign inventory and emits a CurbLR
// document describing the curb regulations it encodes.
package main

func main() {
	Execute()
}
