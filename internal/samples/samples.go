// Package samples holds small programs with known output, used to check
// that every execution backend agrees.
package samples

// Sample is a program together with the exact bytes it prints
type Sample struct {
	Name   string
	Source string
	Output string
}

// HelloWorld prints "Hello World!\n"
var HelloWorld = Sample{
	Name: "hello world",
	Source: `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>
---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`,
	Output: "Hello World!\n",
}

var List = []Sample{
	HelloWorld,
	{
		Name:   "letter via multiply loop",
		Source: "++++++++[>++++++++<-]>+.",
		Output: "A",
	},
	{
		Name:   "digits",
		Source: "++++++++[>++++++<-]++++++++++[>.+<-]",
		Output: "0123456789",
	},
	{
		Name:   "nested multiply",
		Source: "+++[>+++++[>+++++<-]<-]>>.",
		Output: "K",
	},
	{
		Name:   "wrap below zero",
		Source: "-.",
		Output: "\xff",
	},
	{
		Name:   "copy with move loop",
		Source: "++++++++[>++++++++<-]>[->+>+<<]>+.>++.",
		Output: "AB",
	},
	{
		Name:   "clear then print",
		Source: "+++++[-]+++++++++++++++++++++++++++++++++.",
		Output: "!",
	},
	{
		Name:   "comments are ignored",
		Source: "This prints a star: ++++++[>+++++++<-]> and now print it .",
		Output: "*",
	},
}
