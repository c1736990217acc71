/*
 * PPC60x - Event scheduler
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package event

// Events are kept in a delta list: each entry holds the number of
// cycles after the entry before it.

type Callback = func(iarg int)

type Event struct {
	time  int      // Number of cycles after previous event
	owner any      // Owner of event, used to cancel it
	cb    Callback // Function to callback
	iarg  int      // Integer argument
	prev  *Event
	next  *Event
}

type EventList struct {
	head *Event
	tail *Event
}

var el EventList

// Add an event to fire in time cycles. A time of zero calls the
// callback at once.
func AddEvent(owner any, cb Callback, time int, iarg int) {
	if time <= 0 {
		cb(iarg)
		return
	}

	ev := &Event{owner: owner, cb: cb, time: time, iarg: iarg}

	evptr := el.head
	if evptr == nil {
		el.head = ev
		el.tail = ev
		return
	}

	// Scan for place to install it
	for evptr != nil {
		if ev.time < evptr.time {
			// Remove new time from next event
			evptr.time -= ev.time
			ev.prev = evptr.prev
			ev.next = evptr
			evptr.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				el.head = ev
			}
			return
		}
		// Make new event relative to this one
		ev.time -= evptr.time
		evptr = evptr.next
	}

	// Get here, put it on tail of list
	ev.prev = el.tail
	el.tail.next = ev
	el.tail = ev
}

// Remove an event from the list.
func unlink(evptr *Event) {
	nxt := evptr.next
	if nxt != nil {
		nxt.time += evptr.time
		nxt.prev = evptr.prev
	} else {
		el.tail = evptr.prev
	}

	if evptr.prev != nil {
		evptr.prev.next = nxt
	} else {
		el.head = nxt
	}
	evptr.next = nil
	evptr.prev = nil
}

// Cancel first event matching owner and argument.
func CancelEvent(owner any, iarg int) bool {
	for evptr := el.head; evptr != nil; evptr = evptr.next {
		if evptr.owner == owner && evptr.iarg == iarg {
			unlink(evptr)
			return true
		}
	}
	return false
}

// Advance time by t cycles, firing all events that come due. Events
// added by a callback are relative to the time that event fired.
func Advance(t int) {
	if t <= 0 {
		return
	}
	for el.head != nil && el.head.time <= t {
		evptr := el.head
		t -= evptr.time
		el.head = evptr.next
		if el.head != nil {
			el.head.prev = nil
		} else {
			el.tail = nil
		}
		evptr.next = nil
		evptr.cb(evptr.iarg)
	}
	if el.head != nil {
		el.head.time -= t
	}
}

// Return true if any events pending.
func AnyEvent() bool {
	return el.head != nil
}

// Return cycles until next event, or -1 if none.
func NextEvent() int {
	if el.head == nil {
		return -1
	}
	return el.head.time
}

// Remove all events.
func Reset() {
	el = EventList{}
}
