package reactor

import (
	"fmt"
)

func ExampleNewCell() {
	count := NewCell(0)
	fmt.Println(count.Read())

	count.Write(10)
	fmt.Println(count.Read())

	// Output:
	// 0
	// 10
}

func ExampleNewDerived() {
	count := NewCell(1)
	double := NewDerived(func() int {
		fmt.Println("doubling")
		return count.Read() * 2
	})
	plustwo := NewDerived(func() int {
		fmt.Println("adding")
		return double.Read() + 2
	})
	fmt.Println(count.Read())
	fmt.Println(plustwo.Read())
	fmt.Println(double.Read())

	count.Write(10)
	fmt.Println(count.Read())
	fmt.Println(plustwo.Read())
	fmt.Println(double.Read())

	// Output:
	// 1
	// adding
	// doubling
	// 4
	// 2
	// 10
	// doubling
	// adding
	// 22
	// 20
}

func ExampleNewTask() {
	count := NewCell(0)
	doubled := NewDerived(func() int { return count.Read() * 2 })

	NewTask(func() {
		fmt.Println("doubled", doubled.Read())
	})

	count.Write(5)

	// Output:
	// doubled 0
	// doubled 10
}
