// Command desim loads a scenario and drives it to completion.
package main

func main() {
	Execute()
}
