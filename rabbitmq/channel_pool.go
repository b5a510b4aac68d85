package rabbitmq

import (
	"sync"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

var (
	ErrPoolExhausted = errors.New("no channels available in pool")
	ErrPoolClosed    = errors.New("channel pool is closed")
)

// ChannelPool hands out pre-opened channels on a single connection. Every
// channel has the events queue declared.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	queueName string

	mu     sync.Mutex
	closed bool
}

func NewChannelPool(url, queueName string, size int) (*ChannelPool, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	pool := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		queueName: queueName,
	}

	for i := 0; i < size; i++ {
		ch, err := pool.openChannel()
		if err != nil {
			pool.Close()
			return nil, errors.Wrapf(err, "failed to open channel %d", i)
		}
		pool.channels <- ch
	}

	log.WithFields(log.Fields{"size": size, "queue": queueName}).Info("Created RabbitMQ channel pool")
	return pool, nil
}

func (p *ChannelPool) openChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		return nil, errors.Wrap(err, "failed to declare queue")
	}

	return ch, nil
}

// Get takes a channel without blocking, reopening it if the broker closed it.
func (p *ChannelPool) Get() (*amqp.Channel, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	var ch *amqp.Channel
	select {
	case ch = <-p.channels:
	default:
	}
	p.mu.Unlock()

	if ch == nil {
		return nil, ErrPoolExhausted
	}
	if ch.IsClosed() {
		return p.openChannel()
	}
	return ch, nil
}

// Put returns a channel; closed channels are dropped and extras closed. After
// Close the channel is dropped, it went down with the connection.
func (p *ChannelPool) Put(ch *amqp.Channel) {
	if ch == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || ch.IsClosed() {
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	log.Info("Closed RabbitMQ channel pool")
}
