package snake

func (e *Engine) onSnake(p GridPosition) bool {
	for _, s := range e.snake {
		if s == p {
			return true
		}
	}
	return false
}

func (e *Engine) onObstacle(p GridPosition) bool {
	for _, o := range e.obstacles {
		if o == p {
			return true
		}
	}
	return false
}

// freeCells lists cells not covered by the snake, an obstacle, the food or
// any of the extra blocked cells, in row-major order.
func (e *Engine) freeCells(blocked ...GridPosition) []GridPosition {
	n := e.cfg.Board.Size
	taken := make(map[GridPosition]struct{}, len(e.snake)+len(e.obstacles)+len(blocked)+1)
	for _, p := range e.snake {
		taken[p] = struct{}{}
	}
	for _, p := range e.obstacles {
		taken[p] = struct{}{}
	}
	for _, p := range blocked {
		taken[p] = struct{}{}
	}
	if e.hasFood {
		taken[e.food.Pos] = struct{}{}
	}

	free := make([]GridPosition, 0, max(n*n-len(taken), 0))
	for y := range n {
		for x := range n {
			p := GridPosition{X: x, Y: y}
			if _, ok := taken[p]; !ok {
				free = append(free, p)
			}
		}
	}
	return free
}

// spawnFood replaces the food with a new item on a uniformly chosen free cell.
// On a full board the episode continues without food.
func (e *Engine) spawnFood() {
	e.hasFood = false
	free := e.freeCells()
	if len(free) == 0 {
		e.log.Warn("no free cell for food", "episode", e.episode)
		return
	}
	e.food = Food{Pos: free[e.rng.Intn(len(free))], Type: e.pickFoodType()}
	e.hasFood = true
}

// pickFoodType draws a type from the configured weights.
func (e *Engine) pickFoodType() FoodType {
	w := e.cfg.Food.Weights
	r := e.rng.Float64() * w.Total()
	for _, c := range []struct {
		t FoodType
		w float64
	}{
		{FoodRegular, w.Regular},
		{FoodDoubleScore, w.DoubleScore},
		{FoodSpeedBoost, w.SpeedBoost},
		{FoodSpeedUp, w.SpeedUp},
		{FoodSlowDown, w.SlowDown},
	} {
		if r < c.w {
			return c.t
		}
		r -= c.w
	}
	return FoodRegular
}

// spawnObstacle adds one obstacle on a free cell that is not directly ahead
// of the head. Reports false when no such cell exists.
func (e *Engine) spawnObstacle() bool {
	var ahead []GridPosition
	if len(e.snake) > 0 {
		ahead = append(ahead, e.snake[0].Step(e.pending, e.cfg.Board.Size))
		if e.pending != e.dir {
			ahead = append(ahead, e.snake[0].Step(e.dir, e.cfg.Board.Size))
		}
	}
	free := e.freeCells(ahead...)
	if len(free) == 0 {
		e.log.Warn("no free cell for obstacle", "episode", e.episode)
		return false
	}
	e.obstacles = append(e.obstacles, free[e.rng.Intn(len(free))])
	return true
}
