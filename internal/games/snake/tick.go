package snake

func (e *Engine) scheduleTick() {
	e.schedule(&e.tickSlot, e.tickInterval(), func() {
		e.step()
		if e.state == StateRunning {
			e.scheduleTick()
		}
	})
}

// step advances the running episode by one cell. Caller holds e.mu.
func (e *Engine) step() {
	if e.state != StateRunning || len(e.snake) == 0 {
		return
	}
	e.tick++
	e.dir = e.pending

	head := e.snake[0].Step(e.dir, e.cfg.Board.Size)

	// Self first, then obstacles. The tail counts even though it would move.
	if e.onSnake(head) {
		e.gameOver("self")
		return
	}
	if e.onObstacle(head) {
		e.gameOver("obstacle")
		return
	}

	e.snake = append(e.snake, GridPosition{})
	copy(e.snake[1:], e.snake)
	e.snake[0] = head

	if e.hasFood && head == e.food.Pos {
		e.eat(e.food.Type)
		e.spawnFood()
	} else {
		e.snake = e.snake[:len(e.snake)-1]
	}

	if every := e.cfg.Obstacles.SpawnEvery; every > 0 && e.tick%uint64(every) == 0 &&
		len(e.obstacles) < e.cfg.Obstacles.Max {
		e.spawnObstacle()
	}

	e.emit()
}

// eat scores the food and applies its effect. Points are computed before
// the effect starts, so double-score food is not doubled by itself.
func (e *Engine) eat(t FoodType) {
	points := 1
	if e.doubleScore {
		points = 2
	}
	e.score += points

	switch t {
	case FoodRegular:
		e.regularEaten++
		if every := e.cfg.Speed.RegularEvery; every > 0 && e.regularEaten%every == 0 {
			e.setBaseSpeed(e.baseSpeed * e.cfg.Speed.RegularMultiplier)
		}
	case FoodDoubleScore:
		e.activateDoubleScore()
	case FoodSpeedBoost:
		e.activateSpeedBoost()
	case FoodSpeedUp:
		e.setBaseSpeed(e.baseSpeed * e.cfg.Speed.SpeedUpMultiplier)
	case FoodSlowDown:
		e.setBaseSpeed(e.baseSpeed * e.cfg.Speed.SlowDownMultiplier)
	}
	e.log.Debug("food eaten", "type", t, "score", e.score, "speed", e.effectiveSpeed())
}

// gameOver ends the episode and starts the death animation.
func (e *Engine) gameOver(cause string) {
	e.state = StateGameOver
	e.tickSlot.cancel()
	e.clearEffects()
	e.log.Debug("game over", "episode", e.episode, "cause", cause, "score", e.score)

	if d := e.cfg.Effects.DeathAnimation.Std(); d > 0 {
		e.deathAnimation = true
		e.schedule(&e.deathSlot, d, func() {
			e.deathAnimation = false
			e.emit()
		})
	}
	e.emit()
}
