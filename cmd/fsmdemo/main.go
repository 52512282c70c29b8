// Command fsmdemo runs and draws the sample state machines.
package main

func main() {
	Execute()
}
