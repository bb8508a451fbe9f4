package todo

import "sort"

// Order сортирует задачи на месте так же, как это делает SQL-хранилище.
// Задачи без дедлайна при OrderDueAsc уходят в конец.
func Order(todos []Todo, order OrderBy) {
	switch order {
	case OrderDueAsc:
		sort.SliceStable(todos, func(i, j int) bool {
			switch {
			case todos[i].DueDate == nil:
				return false
			case todos[j].DueDate == nil:
				return true
			default:
				return todos[i].DueDate.Before(*todos[j].DueDate)
			}
		})
	default:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		})
	}
}
